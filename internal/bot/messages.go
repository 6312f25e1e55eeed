package bot

const usageMessage = `Olá! Eu registro suas entradas e saídas.

Mande frases como:
• gastei 50,00 com mercado
• paguei 120 reais de luz
• recebi 1.500,00 de salário
• oferta de 200 da igreja

Comandos:
/vincular CODIGO - vincula este chat à sua conta (gere o código no aplicativo)
/resumo - totais do mês atual
/desvincular - remove o vínculo
/ajuda - mostra esta mensagem`

const notLinkedMessage = "Este chat ainda não está vinculado a uma conta. Gere um código no aplicativo e envie /vincular CODIGO."

const genericFailureMessage = "Ocorreu um erro ao processar sua mensagem. Tente novamente em instantes."
